package main

import (
	"github.com/quickmart/backend/internal/order/app"
	"github.com/quickmart/backend/internal/order/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
