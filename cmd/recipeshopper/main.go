// Command recipeshopper runs the RecipeShopper API.
//
// @title       RecipeShopper API
// @version     1.0
// @description Recipes, stored supermarket products and live supermarket product search.
// @BasePath    /api/v1
package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/JaidenRM/recipe-shopper-api/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.NewRootCommand(version).Execute(); err != nil {
		log.Error().Err(err).Msg("recipeshopper")
		os.Exit(1)
	}
}
