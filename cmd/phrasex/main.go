// cmd/phrasex/main.go
package main

import (
	"phrasex/internal/appshell"
	"phrasex/internal/app"
)

func main() {
	appshell.Main(app.RunContext)
}
