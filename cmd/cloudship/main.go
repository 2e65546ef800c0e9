package main

import "github.com/cloudship/cloudship/cmd/cloudship/cmd"

func main() {
	cmd.Execute()
}
