package main

import (
	_ "erede_gateway/docs"
	"erede_gateway/internal/adapter/http/routes"

	_ "github.com/joho/godotenv/autoload"
)

// @title           e.Rede Payment Gateway API
// @version         1.0
// @description     Card authorization, capture, consult and cancel against e.Rede (or Mercado Pago), with a DynamoDB transaction log.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

func main() {
	routes.Run()
}
