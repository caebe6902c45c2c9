package main

import (
	"net/http"

	"github.com/mcauth/mcauth/cmd"
	"github.com/mcauth/mcauth/internals/ownhttp"
)

// set by goreleaser
var version = "dev"

func main() {
	// replace default http client, all auth services get the decorated one
	http.DefaultClient = ownhttp.New()

	cmd.Version = version
	cmd.Execute()
}
