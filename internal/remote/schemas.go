package remote

import (
	"bytes"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Response bodies are validated against these schemas before decoding, so a
// shape change on the server surfaces as a distinct malformed-response error
// instead of zero values leaking into rendering.

const checkListSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["checkId", "status", "deliveryTime", "fileId"],
    "properties": {
      "checkId": {"type": "string", "minLength": 1},
      "status": {"type": "string", "minLength": 1},
      "deliveryTime": {"type": "string"},
      "createdAt": {"type": "string"},
      "priority": {"type": "string"},
      "fileId": {
        "type": "object",
        "required": ["_id"],
        "properties": {
          "_id": {"type": "string"},
          "name": {"type": "string"},
          "storedName": {"type": "string"},
          "size": {"type": "integer"},
          "wordCount": {"type": "integer"}
        }
      },
      "reportId": {
        "type": "object",
        "required": ["_id"],
        "properties": {
          "_id": {"type": "string"},
          "reports": {
            "type": "object",
            "properties": {
              "ai": {"type": "object"},
              "plagiarism": {"type": "object"}
            }
          }
        }
      }
    }
  }
}`

const accountSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["_id", "email"],
  "properties": {
    "_id": {"type": "string"},
    "email": {"type": "string"},
    "name": {"type": "string"},
    "plan": {"type": "string"},
    "credits": {"type": "integer"},
    "creditsExpiry": {"type": "string"}
  }
}`

const apiKeyListSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["keyId"],
    "properties": {
      "keyId": {"type": "string"},
      "maskedKey": {"type": "string"},
      "active": {"type": "boolean"},
      "createdAt": {"type": "string"},
      "expiresAt": {"type": "string"}
    }
  }
}`

const purgeResultSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["deleted"],
  "properties": {
    "deleted": {"type": "integer"},
    "failed": {"type": "array", "items": {"type": "string"}}
  }
}`

var (
	checkListContract   = jsonschema.MustCompileString("check_list.json", checkListSchema)
	accountContract     = jsonschema.MustCompileString("account.json", accountSchema)
	apiKeyListContract  = jsonschema.MustCompileString("api_key_list.json", apiKeyListSchema)
	purgeResultContract = jsonschema.MustCompileString("purge_result.json", purgeResultSchema)
)

// decodeValidated checks body against the contract, then unmarshals into dest.
// Any violation comes back as a malformed-response APIError.
func decodeValidated(contract *jsonschema.Schema, body []byte, dest interface{}) error {
	var shape interface{}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&shape); err != nil {
		return newAPIError(KindMalformed, 0, "response is not valid JSON")
	}

	if err := contract.Validate(shape); err != nil {
		return newAPIError(KindMalformed, 0, "response does not match expected shape")
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return newAPIError(KindMalformed, 0, "response could not be decoded")
	}

	return nil
}
