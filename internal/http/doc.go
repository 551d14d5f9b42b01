// Package http exposes the portfolio gallery over net/http.
//
// Routes mount under /api by default:
//   - GET /api/gallery?filter=&page=&item= renders one gallery frame
//   - GET /api/gallery/categories lists the selectable filters
//
// Image renditions can be mounted on the same mux with WithAssets.
package http
