// Package main is the entry point for judegen, the schema compiler.
package main

func main() {
	Execute()
}
