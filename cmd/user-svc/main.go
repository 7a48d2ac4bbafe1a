package main

import (
	"github.com/quickmart/backend/internal/user/app"
	"github.com/quickmart/backend/internal/user/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
