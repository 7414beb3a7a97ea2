package main

import "github.com/devjourney/cosmos/pkg/cli"

func main() {
	cli.Execute(cli.Options{Name: "cosmos"})
}
