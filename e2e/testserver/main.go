// Command testserver runs a minimal fake Directus instance for exercising
// directus-typegen against a live HTTP endpoint. It implements just the two
// routes the generator calls: /auth/login and /server/specs/oas.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
)

var (
	addr  = flag.String("addr", ":8055", "listen address")
	token = flag.String("token", "test-token", "access token issued by /auth/login and required on /server/specs/oas")
	fail  = flag.Bool("fail", false, "answer /server/specs/oas with an error envelope")
)

const spec = `{
	"openapi": "3.0.1",
	"info": {"title": "Dynamic API Specification", "version": "10.8.3"},
	"paths": {},
	"components": {
		"schemas": {
			"ItemsArticle": {
				"type": "object",
				"x-collection": "article",
				"required": ["id"],
				"properties": {
					"id": {"type": "integer"},
					"title": {"type": "string", "nullable": true},
					"author": {"$ref": "#/components/schemas/Users"}
				}
			},
			"Users": {
				"type": "object",
				"x-collection": "directus_users",
				"properties": {
					"id": {"type": "string"},
					"email": {"type": "string", "nullable": true}
				}
			},
			"x-metadata": {"type": "object"}
		}
	}
}`

func main() {
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", handleLogin)
	mux.HandleFunc("/server/specs/oas", handleSpec)

	log.Printf("fake directus listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}

func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Mode     string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" || creds.Password == "" {
		writeErrors(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid login payload.")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"data": map[string]any{
			"access_token":  *token,
			"refresh_token": "refresh-" + *token,
			"expires":       900000,
		},
	})
}

func handleSpec(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+*token {
		writeErrors(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid user credentials.")
		return
	}
	if *fail {
		writeErrors(w, http.StatusForbidden, "FORBIDDEN", "You don't have permission to access this.")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(spec))
}

func writeErrors(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"errors": []map[string]any{
			{"message": message, "extensions": map[string]any{"code": code}},
		},
	})
}
