package main

import "pagebuilder/internal/app"

func main() {
	app.ServeMCP()
}
