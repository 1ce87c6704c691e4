package main

import "github.com/theirongolddev/hbudget/cmd"

func main() {
	cmd.Execute()
}
