// Command lambda serves the production application behind API Gateway.
package main

import (
	"net/http"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/roadwise/roadwise/constants"
	"github.com/roadwise/roadwise/core"
	rwhttp "github.com/roadwise/roadwise/http"
)

func createApp(profile string) (http.Handler, error) {
	app, err := core.CreateApp(profile)
	if err != nil {
		return nil, err
	}
	return app, nil
}

func main() {
	entry := rwhttp.NewAdapter(createApp, constants.ProfileProduction)
	lambda.Start(rwhttp.NewLambdaHandler(entry))
}
