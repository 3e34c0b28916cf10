package main

import "cheesefinder/internal/cli"

func main() {
	cli.Execute()
}
