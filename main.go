package main

import "auction-management-api/app"

func main() {
	app.Run()
}
