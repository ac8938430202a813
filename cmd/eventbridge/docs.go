package main

//go:generate swag init -g cmd/eventbridge/main.go -o docs

// @title           Discord Event Webhook API
// @version         0.1.0
// @description     Creates Discord guild scheduled events from JSON webhooks.
// @host            localhost:3000
// @BasePath        /
// @schemes         http
