/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/pcmtools/cdbkit/cmd/cdbkit/cmd"

func main() {
	cmd.Execute()
}
