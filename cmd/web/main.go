package main

import "servifast_backend/internal/app"

func main() {
	app.Run()
}
