package main

import "github.com/sagi-l/ci-dashboard/cmd"

func main() {
	cmd.Execute()
}
