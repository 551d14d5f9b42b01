package openapi

import "net/http"

// GalleryDocument describes the routes GalleryAPI mounts under basePath.
func GalleryDocument(basePath, version string) *Document {
	doc := NewDocument("Portfolio gallery", version)
	doc.AddSchema("Item", map[string]any{
		"type":     "object",
		"required": []string{"id", "title", "priority"},
		"properties": map[string]any{
			"id":             map[string]any{"type": "string"},
			"title":          map[string]any{"type": "string"},
			"description":    map[string]any{"type": "string"},
			"category":       map[string]any{"type": "string"},
			"category_slugs": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"priority":       map[string]any{"type": "integer"},
			"image": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"asset_id": map[string]any{"type": "string"},
					"alt":      map[string]any{"type": "string"},
				},
			},
		},
	})
	doc.AddSchema("Lightbox", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"open":        map[string]any{"type": "boolean"},
			"index":       map[string]any{"type": "integer"},
			"count":       map[string]any{"type": "integer"},
			"image_url":   map[string]any{"type": "string"},
			"loaded":      map[string]any{"type": "boolean"},
			"unavailable": map[string]any{"type": "boolean"},
			"has_next":    map[string]any{"type": "boolean"},
			"has_prev":    map[string]any{"type": "boolean"},
			"item":        Ref("Item"),
		},
	})
	doc.AddSchema("Gallery", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status":         map[string]any{"type": "string", "enum": []string{"pending", "ready", "failed"}},
			"error":          map[string]any{"type": "string"},
			"active_filter":  map[string]any{"type": "string"},
			"filters":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"items":          map[string]any{"type": "array", "items": Ref("Item")},
			"thumbnails":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"page":           map[string]any{"type": "integer", "minimum": 1},
			"total_pages":    map[string]any{"type": "integer", "minimum": 1},
			"page_start":     map[string]any{"type": "integer"},
			"page_size":      map[string]any{"type": "integer"},
			"filtered_count": map[string]any{"type": "integer"},
			"lightbox":       Ref("Lightbox"),
		},
	})
	doc.AddSchema("Error", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"error":   map[string]any{"type": "string"},
			"message": map[string]any{"type": "string"},
		},
	})

	root := basePath + "/gallery"
	doc.AddOperation(root, http.MethodGet, map[string]any{
		"operationId": "getGallery",
		"summary":     "One gallery frame for a filter, page and optional open lightbox",
		"parameters": []map[string]any{
			queryParam("filter", "string", "Category label or slug; defaults to All"),
			queryParam("page", "integer", "1-based page, clamped to the available pages"),
			queryParam("item", "integer", "Opens the lightbox at this index of the filtered list"),
		},
		"responses": map[string]any{
			"200": jsonResponse("Gallery frame; fetch failures are reported in status", "Gallery"),
			"400": jsonResponse("Unknown filter or malformed query", "Error"),
			"503": jsonResponse("No item source configured", "Error"),
		},
	})
	doc.AddOperation(root+"/categories", http.MethodGet, map[string]any{
		"operationId": "listCategories",
		"summary":     "Selectable filters, All first",
		"responses": map[string]any{
			"200": map[string]any{
				"description": "Filters",
				"content": map[string]any{"application/json": map[string]any{"schema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"status":     map[string]any{"type": "string"},
						"error":      map[string]any{"type": "string"},
						"categories": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					},
				}}},
			},
		},
	})
	return doc
}

func queryParam(name, kind, description string) map[string]any {
	return map[string]any{
		"name":        name,
		"in":          "query",
		"description": description,
		"schema":      map[string]any{"type": kind},
	}
}

func jsonResponse(description, schema string) map[string]any {
	return map[string]any{
		"description": description,
		"content":     map[string]any{"application/json": map[string]any{"schema": Ref(schema)}},
	}
}
