package main

import "github.com/soltixdb/finlytics/cmd/finlytics/cmd"

func main() {
	cmd.Execute()
}
