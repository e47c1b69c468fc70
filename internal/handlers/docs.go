package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

type object = map[string]interface{}

func queryParam(name, description string, required bool, schema object) object {
	return object{
		"name":        name,
		"in":          "query",
		"description": description,
		"required":    required,
		"schema":      schema,
	}
}

func number() object { return object{"type": "number"} }

func ref(name string) object { return object{"$ref": "#/components/schemas/" + name} }

func jsonResponse(description string, schema object) object {
	return object{
		"description": description,
		"content": object{
			"application/json": object{"schema": schema},
		},
	}
}

func errorResponses(codes ...int) object {
	out := object{}
	for _, code := range codes {
		out[strconv.Itoa(code)] = jsonResponse(statusText(code), ref("ErrorResponse"))
	}
	return out
}

func withOK(description string, schema object, errs object) object {
	errs["200"] = jsonResponse(description, schema)
	return errs
}

var panelParams = []object{
	queryParam("nominal_power", "Panel nominal power in watts (default: configured, 330)", false, number()),
	queryParam("efficiency", "System efficiency percent between 10 and 25 (default: configured, 18.5)", false, number()),
}

// openAPIDocument describes the public API in OpenAPI 3.0 form
var openAPIDocument = object{
	"openapi": "3.0.0",
	"info": object{
		"title":       "Solar Energy Estimator API",
		"description": "Current weather per city combined with an estimate of photovoltaic power output",
		"version":     "1.0.0",
	},
	"servers": []object{
		{"url": "http://localhost:8080", "description": "Local development server"},
	},
	"paths": object{
		"/api/cities": object{
			"get": object{
				"summary":   "List candidate cities",
				"responses": withOK("City catalog", ref("CitiesResponse"), object{}),
			},
		},
		"/api/solar": object{
			"get": object{
				"summary":     "Estimate solar output for a city",
				"description": "Fetches current weather for the city and estimates panel output",
				"parameters": append([]object{
					queryParam("city", "City name", true, object{"type": "string"}),
				}, panelParams...),
				"responses": withOK("Assessment", ref("SolarAssessment"), errorResponses(http.StatusBadRequest, http.StatusNotFound, StatusClientClosedRequest, http.StatusBadGateway, http.StatusGatewayTimeout)),
			},
		},
		"/api/solar/compare": object{
			"get": object{
				"summary":     "Compare solar output across cities",
				"description": "Looks up each city in turn; failed lookups are reported per city",
				"parameters": append([]object{
					queryParam("cities", "Comma separated city names (default: whole catalog, max 20)", false, object{"type": "string"}),
				}, panelParams...),
				"responses": withOK("Comparison", ref("Comparison"), errorResponses(http.StatusBadRequest, StatusClientClosedRequest)),
			},
		},
		"/api/estimate": object{
			"get": object{
				"summary":     "Run the estimator on explicit values",
				"description": "No range checks are applied; out of range inputs yield out of range outputs",
				"parameters": []object{
					queryParam("temperature", "Ambient temperature in °C", true, number()),
					queryParam("clouds", "Cloud coverage percent", true, number()),
					queryParam("nominal_power", "Panel nominal power in watts", true, number()),
					queryParam("efficiency", "System efficiency percent", true, number()),
				},
				"responses": withOK("Estimate", ref("EstimateResponse"), errorResponses(http.StatusBadRequest, http.StatusInternalServerError)),
			},
		},
		"/health": object{
			"get": object{
				"summary":   "Health check",
				"responses": withOK("API is healthy", object{"type": "object"}, object{}),
			},
		},
		"/metrics": object{
			"get": object{
				"summary": "Prometheus metrics",
				"responses": object{
					"200": object{
						"description": "Prometheus metrics in text format",
						"content":     object{"text/plain": object{"schema": object{"type": "string"}}},
					},
				},
			},
		},
	},
	"components": object{
		"schemas": object{
			"ErrorResponse": object{
				"type": "object",
				"properties": object{
					"error":   object{"type": "string"},
					"message": object{"type": "string"},
					"code":    object{"type": "integer"},
				},
			},
			"CitiesResponse": object{
				"type": "object",
				"properties": object{
					"cities": object{"type": "array", "items": object{"type": "string"}},
					"source": object{"type": "string", "enum": []string{"file", "default"}},
					"total":  object{"type": "integer"},
				},
			},
			"Estimate": object{
				"type": "object",
				"properties": object{
					"irradiance":     number(),
					"thermal_factor": number(),
					"power_output":   number(),
				},
			},
			"EstimateResponse": object{
				"type": "object",
				"properties": object{
					"temperature_celsius": number(),
					"cloud_pct":           number(),
					"nominal_power_w":     number(),
					"efficiency_pct":      number(),
					"estimate":            ref("Estimate"),
				},
			},
			"SolarAssessment": object{
				"type": "object",
				"properties": object{
					"city": object{"type": "string"},
					"conditions": object{
						"type": "object",
						"properties": object{
							"city":                object{"type": "string"},
							"temperature_celsius": number(),
							"cloud_pct":           number(),
							"humidity_pct":        number(),
							"description":         object{"type": "string"},
						},
					},
					"panel": object{
						"type": "object",
						"properties": object{
							"nominal_power_w": number(),
							"efficiency_pct":  number(),
						},
					},
					"estimate":             ref("Estimate"),
					"capacity_utilization": number(),
					"generated_at":         object{"type": "string", "format": "date-time"},
				},
			},
			"Comparison": object{
				"type": "object",
				"properties": object{
					"results": object{
						"type": "array",
						"items": object{
							"type": "object",
							"properties": object{
								"city":       object{"type": "string"},
								"assessment": ref("SolarAssessment"),
								"error":      object{"type": "string"},
							},
						},
					},
					"best":            object{"type": "string"},
					"average_power_w": number(),
					"succeeded":       object{"type": "integer"},
					"failed":          object{"type": "integer"},
				},
			},
		},
	},
}

// OpenAPISpec returns the OpenAPI 3.0 specification for the API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(openAPIDocument)
}
