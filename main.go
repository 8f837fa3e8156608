package main

import "github.com/killallgit/herotrend/cmd"

func main() {
	cmd.Execute()
}
