// Command jsonpattern validates JSON documents against declarative schemas
// from the command line, over HTTP, over MCP or from a RabbitMQ queue.
package main

func main() {
	Execute()
}
