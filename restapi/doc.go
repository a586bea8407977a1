// Package restapi is a typed client for JSON REST services.
//
// An API is rooted at a base URL. Requests are issued with generic verb
// functions that build the request, attach credentials, dispatch it on
// a Transport and decode the body into a T with a ResponseCodec:
//
//	api := restapi.New("https://jsonplaceholder.typicode.com",
//	    restapi.WithAuthenticator(restapi.BearerAuth(token)),
//	    restapi.WithErrorLogging(),
//	)
//
//	err := restapi.Get(ctx, api, "/posts",
//	    restapi.Array(restapi.Decodable[Post](api.Decoders())),
//	    func(status *restapi.Status, posts *[]Post) {
//	        if status == nil {
//	            return // no response
//	        }
//	        ...
//	    },
//	    restapi.WithQuery(restapi.Query{"userId": restapi.String("1")}),
//	)
//
// The returned error only reports requests that could not be built.
// Everything after dispatch is reported to the completion, which runs
// once on the transport's goroutine. Do is the blocking form.
//
// # Status
//
// Every response code maps onto a Status: named kinds for the common
// codes, serverError for the rest of 5xx and other(code) for anything
// else. IsSuccess, IsClientError and IsServerError partition them.
//
// # Payloads
//
// Request bodies are Payloads: JSONBody, Form, Multipart, Raw or JPEG.
// Response bodies are decoded by ResponseCodecs: Bytes, JSONTree,
// Decodable, Parse, Array, Dual, Image and APIErrorCodec.
//
// # Caching
//
// Load performs a GET under a CachePolicy, reading and writing a Store
// through a Cacheable codec. See the cachestore package for stores.
//
//	cache := restapi.JSONCache[[]Post](cachestore.NewMemoryStore(), nil)
//	restapi.Load(ctx, api, "/posts", restapi.RefreshCache, cache, func(posts *[]Post) {
//	    // cached copy first, then the network copy
//	})
package restapi
