package server

const openAPISpec = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Pravka API",
    "description": "Grammar, spelling, and punctuation correction with a word-level diff of the changes.",
    "version": "1.0.0"
  },
  "paths": {
    "/api": {
      "post": {
        "summary": "Correct Text",
        "description": "Corrects the submitted text and returns the corrected token sequence plus a map of changed words. Word pairing is positional: the i-th original word is compared with the i-th corrected word, and trailing words of the longer side are ignored.",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": { "$ref": "#/components/schemas/CorrectRequest" },
              "examples": {
                "english": {
                  "value": { "text": "i enjoys swiming", "lang_code": "en" }
                },
                "auto-detect": {
                  "value": { "text": "Це виправленне реченя" }
                }
              }
            }
          }
        },
        "responses": {
          "200": {
            "description": "Correction result",
            "content": {
              "application/json": {
                "schema": { "$ref": "#/components/schemas/CorrectResponse" },
                "example": {
                  "corrected_text": "I enjoy swimming",
                  "corrections": { "i": "I", "enjoys": "enjoy", "swiming": "swimming" },
                  "lang_code": "en"
                }
              }
            }
          },
          "400": { "description": "Missing text or malformed JSON" },
          "502": { "description": "Correction backend unavailable or failed" }
        }
      }
    },
    "/api/v1/dict": {
      "get": {
        "summary": "List protected words",
        "responses": {
          "200": {
            "description": "All protected words",
            "content": {
              "application/json": {
                "example": { "words": ["Pravka", "GoLang"] }
              }
            }
          },
          "503": { "description": "Dictionary not configured" }
        }
      },
      "post": {
        "summary": "Add a protected word",
        "description": "Protected words are restored in the corrected text if a correction backend rewrites them.",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "example": { "word": "Pravka" }
            }
          }
        },
        "responses": {
          "201": { "description": "Word added" },
          "400": { "description": "Missing word" },
          "503": { "description": "Dictionary not configured" }
        }
      }
    },
    "/api/v1/dict/{word}": {
      "delete": {
        "summary": "Remove a protected word",
        "parameters": [
          { "name": "word", "in": "path", "required": true, "schema": { "type": "string" } }
        ],
        "responses": {
          "200": { "description": "Word removed" },
          "503": { "description": "Dictionary not configured" }
        }
      }
    },
    "/health": {
      "get": {
        "summary": "Health",
        "responses": {
          "200": {
            "description": "Service healthy",
            "content": {
              "application/json": {
                "example": { "status": "ok", "service": "pravka" }
              }
            }
          }
        }
      }
    }
  },
  "components": {
    "schemas": {
      "CorrectRequest": {
        "type": "object",
        "required": ["text"],
        "properties": {
          "text":      { "type": "string", "description": "Text to correct (required)", "example": "i enjoys swiming" },
          "lang_code": { "type": "string", "description": "ISO 639-1 language code; empty or \"auto\" triggers detection", "example": "en" }
        }
      },
      "CorrectResponse": {
        "type": "object",
        "properties": {
          "corrected_text": { "type": "string", "description": "Corrected token sequence, single-space joined" },
          "corrections":    { "type": "object", "additionalProperties": { "type": "string" }, "description": "Original word to corrected word. Repeated original words keep only the last occurrence's correction." },
          "lang_code":      { "type": "string", "description": "Language the text was corrected under" }
        }
      }
    }
  }
}`

const redocHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Pravka API Docs</title>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <style>body { margin: 0; padding: 0; }</style>
</head>
<body>
  <redoc spec-url="/openapi.json" expand-responses="200" hide-download-button></redoc>
  <script src="https://cdn.jsdelivr.net/npm/redoc@latest/bundles/redoc.standalone.js"></script>
</body>
</html>`
