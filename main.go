/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ivanjaven/extension/cmd"

func main() {
	cmd.Execute()
}
