/*
Package amqp validates messages consumed from RabbitMQ.

Each delivery body is a JSON document. The schema is named by the "x-schema" header,
falling back to the consumer's default. Outcomes:

  - conforming document: ack.
  - document with violations: the report is published to the reject routing key, then ack.
  - malformed document, unknown schema or configuration error: nack without requeue,
    so the broker dead-letters the message.
*/
package amqp
