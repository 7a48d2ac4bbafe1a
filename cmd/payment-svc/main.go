package main

import (
	"github.com/quickmart/backend/internal/payment/app"
	"github.com/quickmart/backend/internal/payment/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
