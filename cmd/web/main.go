package main

import "jobportal_web/internal/app"

func main() {
	app.Run()
}
