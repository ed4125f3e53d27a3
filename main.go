package main

import "taskhub/internal/app"

// @title           TaskHub API
// @version         1.0
// @description     Personal task management backend with priority scoring and greedy scheduling.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
