package main

import "github.com/miramar-experience/api-go/cmd"

func main() {
	cmd.Execute()
}
