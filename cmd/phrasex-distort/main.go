// cmd/phrasex-distort/main.go
package main

import (
	"phrasex/internal/appshell"
	"phrasex/internal/distortapp"
)

func main() {
	appshell.Main(distortapp.RunContext)
}
