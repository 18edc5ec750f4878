// Command portal runs the customer portal API and its maintenance tasks.
//
// @title                       Customer Portal API
// @version                     1.0
// @description                 Request lifecycle backend for the customer portal: customers submit requests, admins answer them with a monthly quote.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

func main() {
	Execute()
}
