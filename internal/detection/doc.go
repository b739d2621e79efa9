// Package detection talks to the remote object-detection boundary.
//
// The boundary is an HTTP model endpoint that accepts a base64-encoded image as
// a form-encoded POST body and answers with a JSON object whose predictions
// field lists center-anchored boxes:
//
//	POST {endpoint}?api_key={key}&confidence={threshold}
//	Content-Type: application/x-www-form-urlencoded
//
//	{"predictions": [{"class": "5", "x": 100, "y": 50, "width": 40, "height": 20, "confidence": 0.91}]}
//
// # Ordering
//
// Predictions are returned exactly as received. Draw order downstream is the
// boundary's order; any sorting happens on copies.
//
// # Error Handling
//
// Detect distinguishes two failure classes:
//   - *NetworkError: no response (DNS, refused connection, timeout, cancellation)
//   - *ServiceError: a response that was not a usable 2xx result, carrying the
//     status code and raw body
//
// No request is ever retried by this package.
package detection
