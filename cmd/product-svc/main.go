package main

import (
	"github.com/quickmart/backend/internal/product/app"
	"github.com/quickmart/backend/internal/product/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
