package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/skillsmd/skillscli/internal/cli"
)

func main() {
	cli.Execute()
}
