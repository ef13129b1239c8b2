package amqp

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDeclarer struct {
	exchanges []string
	queues    map[string]amqp.Table
	bindings  []string
}

func (r *recordingDeclarer) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	r.exchanges = append(r.exchanges, name+":"+kind)
	return nil
}

func (r *recordingDeclarer) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if r.queues == nil {
		r.queues = make(map[string]amqp.Table)
	}
	r.queues[name] = args
	return amqp.Queue{Name: name}, nil
}

func (r *recordingDeclarer) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	r.bindings = append(r.bindings, exchange+"/"+key+"->"+name)
	return nil
}

func TestDeclare(t *testing.T) {
	rec := &recordingDeclarer{}
	err := Declare(rec, Topology{
		Queue:          "payments",
		Exchange:       "payments.results",
		RejectKey:      "rejected",
		DeadLetterName: "payments.dlx",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"payments.dlx:fanout", "payments.results:direct"}, rec.exchanges)
	assert.Equal(t, amqp.Table{"x-dead-letter-exchange": "payments.dlx"}, rec.queues["payments"])
	assert.Contains(t, rec.queues, "payments.rejected")
	assert.Equal(t, []string{"payments.dlx/->payments.dlx", "payments.results/rejected->payments.rejected"}, rec.bindings)
}

func TestDeclare_QueueOnly(t *testing.T) {
	rec := &recordingDeclarer{}
	require.NoError(t, Declare(rec, Topology{Queue: "payments"}))

	assert.Empty(t, rec.exchanges)
	assert.Nil(t, rec.queues["payments"])
}
