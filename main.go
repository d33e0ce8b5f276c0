package main

import (
	_ "git.vibecoding.academy/vca/vca/src/admintools"
	_ "git.vibecoding.academy/vca/vca/src/migration"
	"git.vibecoding.academy/vca/vca/src/website"
)

func main() {
	website.WebsiteCommand.Execute()
}
