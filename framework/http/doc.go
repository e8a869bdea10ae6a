// Package http provides JSON response helpers and the container inspector.
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.Success(v)                          // 200 {"data": v}
//	res.Error(http.StatusConflict, "taken") // 409 {"message": "taken"}
//	res.NotFound()                          // 404 {"message": "Not found."}
//
// # Inspector
//
// Inspector exposes the registry of a container over HTTP without resolving
// anything:
//
//	gohttp.NewInspector(c).Routes(router, "/container")
//
//	GET /container       → {"data": [{"name": "db", "kind": "deferred", "factory": false, "frozen": true}, ...]}
//	GET /container/db    → {"data": {"name": "db", ...}}
//	GET /container/nope  → 404 {"message": "container: describe [nope]: not found"}
package http
