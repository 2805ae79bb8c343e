package main

import "github.com/dbsmedya/objectgraph/cmd/objectgraph/cmd"

func main() {
	cmd.Execute()
}
