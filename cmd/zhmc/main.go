package main

import "github.com/openzhmc/zhmc/internal/cli"

func main() {
	cli.Execute()
}
