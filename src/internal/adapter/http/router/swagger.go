package router

import (
	"fmt"
	"net/http"
)

func registerSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.HandleFunc("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Asientos Contables API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Asientos Contables API",
    "version": "1.0.0"
  },
  "paths": {
    "/create-entry": {
      "post": {
        "summary": "Compose and commit a ledger entry from a commercial document",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["type", "userId", "lines"],
                "properties": {
                  "type": {
                    "type": "string",
                    "enum": [
                      "standard-invoice",
                      "income",
                      "purchase-and-payment",
                      "invoice-vat-included",
                      "cash-paid-invoice",
                      "cash-income",
                      "direct-cash-expense"
                    ]
                  },
                  "documentSeries": {"type": "string"},
                  "documentNumber": {"type": "string"},
                  "issueDate": {"type": "string", "example": "2025-04-01"},
                  "operationDate": {"type": "string", "example": "2025-04-01"},
                  "dueDate": {"type": "string", "example": "2025-05-01"},
                  "concept": {"type": "string"},
                  "providerCode": {"type": "string"},
                  "expenseAccount": {"type": "string", "example": "629000000"},
                  "incomeAccount": {"type": "string", "example": "700000000"},
                  "paymentAccount": {"type": "string", "example": "572000000"},
                  "attachmentRef": {"type": "string"},
                  "userId": {"type": "string"},
                  "lines": {
                    "type": "array",
                    "items": {
                      "type": "object",
                      "properties": {
                        "base": {"type": "string", "example": "100.00"},
                        "vatRate": {"type": "string", "example": "21"},
                        "withholdingRate": {"type": "string", "example": "15"}
                      }
                    }
                  }
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "Entry committed"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "503": {"description": "Entry numbering contended, retry"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/get-entries": {
      "get": {
        "summary": "Query committed entries with filtering, sorting and pagination",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {"name": "entryNumber", "in": "query", "schema": {"type": "integer"}},
          {"name": "fiscalYear", "in": "query", "schema": {"type": "integer"}},
          {"name": "dateFrom", "in": "query", "schema": {"type": "string", "example": "2025-01-01"}},
          {"name": "dateTo", "in": "query", "schema": {"type": "string", "example": "2025-12-31"}},
          {"name": "page", "in": "query", "schema": {"type": "integer", "minimum": 1}},
          {"name": "pageSize", "in": "query", "schema": {"type": "integer", "minimum": 1, "maximum": 200}},
          {"name": "sortField", "in": "query", "schema": {"type": "string", "enum": ["number", "date", "totalDebit", "totalCredit"]}},
          {"name": "sortDirection", "in": "query", "schema": {"type": "string", "enum": ["asc", "desc"]}}
        ],
        "responses": {
          "200": {"description": "Entries fetched"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/get-next-entry-number": {
      "get": {
        "summary": "Peek the next entry number for display (advisory, non-committing)",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {"name": "date", "in": "query", "schema": {"type": "string", "example": "2025-04-01"}}
        ],
        "responses": {
          "200": {"description": "Next entry number fetched"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "500": {"description": "Server error"}
        }
      }
    }
  },
  "components": {
    "securitySchemes": {
      "BasicAuth": {
        "type": "http",
        "scheme": "basic"
      }
    }
  }
}`
