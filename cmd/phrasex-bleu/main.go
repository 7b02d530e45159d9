// cmd/phrasex-bleu/main.go
package main

import (
	"phrasex/internal/appshell"
	"phrasex/internal/bleuapp"
)

func main() {
	appshell.Main(bleuapp.RunContext)
}
