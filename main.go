package main

import "telegram-order-bot/internal/cli"

func main() {
	cli.Execute()
}
