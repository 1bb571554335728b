package main

import "github.com/claudiobarsante/ignews-rest/cmd"

func main() {
	cmd.Execute()
}
