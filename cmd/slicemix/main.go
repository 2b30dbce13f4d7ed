package main

import "slicemix/internal/cli"

func main() {
	cli.Main()
}
