package main

import "erp-sync/cmd"

func main() {
	cmd.Execute()
}
