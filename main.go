package main

import "github.com/llmgate/promptrefiner/cmd"

func main() {
	cmd.Execute()
}
