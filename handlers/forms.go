package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/url"
	"strconv"
	"strings"

	"gamesite/models"
	"gamesite/store"

	"github.com/gin-gonic/gin"
)

func parseRef(field, raw string) (*uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return nil, &store.ValidationError{Field: field, Message: "Incorrect type. Expected pk value."}
	}
	id := uint(n)
	return &id, nil
}

// patchFromForm reads a game form. Required fields are always taken, even
// when empty, so the store can reject them; optional references are only
// taken when a value was supplied.
func patchFromForm(form url.Values, requireAll bool) (store.GamePatch, error) {
	var p store.GamePatch
	if vals, ok := form["game_name"]; ok || requireAll {
		name := ""
		if len(vals) > 0 {
			name = vals[0]
		}
		p.Name = &name
	}
	for _, rel := range models.Relations {
		raw := strings.TrimSpace(form.Get(rel.Field))
		if raw == "" {
			if rel.Required && requireAll {
				return p, &store.ValidationError{Field: rel.Field, Message: "This field is required."}
			}
			continue
		}
		id, err := parseRef(rel.Field, raw)
		if err != nil {
			return p, err
		}
		p.Set(rel.Field, id)
	}
	return p, nil
}

// patchFromJSON reads an API body. An explicit null clears an optional
// reference; a missing key or an empty string leaves it alone.
func patchFromJSON(body []byte) (store.GamePatch, error) {
	var p store.GamePatch
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return p, &store.ValidationError{Field: "non_field_errors", Message: "JSON parse error - " + err.Error()}
	}

	if v, ok := raw["game_name"]; ok {
		var name string
		if err := json.Unmarshal(v, &name); err != nil {
			return p, &store.ValidationError{Field: "game_name", Message: "Not a valid string."}
		}
		p.Name = &name
	}
	for _, rel := range models.Relations {
		v, ok := raw[rel.Field]
		if !ok {
			continue
		}
		v = bytes.TrimSpace(v)
		switch {
		case bytes.Equal(v, []byte("null")):
			p.Set(rel.Field, nil)
		case bytes.Equal(v, []byte(`""`)):
		default:
			var n json.Number
			dec := json.NewDecoder(bytes.NewReader(v))
			dec.UseNumber()
			var val interface{}
			if err := dec.Decode(&val); err != nil {
				return p, &store.ValidationError{Field: rel.Field, Message: "Incorrect type. Expected pk value."}
			}
			switch t := val.(type) {
			case json.Number:
				n = t
			case string:
				n = json.Number(t)
			default:
				return p, &store.ValidationError{Field: rel.Field, Message: "Incorrect type. Expected pk value."}
			}
			id, err := parseRef(rel.Field, n.String())
			if err != nil {
				return p, err
			}
			p.Set(rel.Field, id)
		}
	}
	return p, nil
}

// bindGamePatch reads a JSON or form body depending on the content type.
func bindGamePatch(c *gin.Context, requireAll bool) (store.GamePatch, error) {
	if c.ContentType() == gin.MIMEJSON {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return store.GamePatch{}, err
		}
		p, err := patchFromJSON(body)
		if err != nil {
			return p, err
		}
		if requireAll {
			if err := requireFull(p); err != nil {
				return p, err
			}
		}
		return p, nil
	}
	if err := c.Request.ParseForm(); err != nil {
		return store.GamePatch{}, &store.ValidationError{Field: "non_field_errors", Message: "Malformed form body."}
	}
	return patchFromForm(c.Request.PostForm, requireAll)
}

// requireFull enforces the fields a full update must carry.
func requireFull(p store.GamePatch) error {
	if p.Name == nil {
		return &store.ValidationError{Field: "game_name", Message: "This field is required."}
	}
	for _, rel := range models.Relations {
		if !rel.Required {
			continue
		}
		if id, ok := p.Refs[rel.Field]; !ok || id == nil {
			return &store.ValidationError{Field: rel.Field, Message: "This field is required."}
		}
	}
	return nil
}
