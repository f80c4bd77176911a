// Package layer groups middleware that wraps a core.Service with cross
// cutting behavior. Each subpackage exposes a Layer function usable with
// service.Builder.Layer:
//
//	svc := service.Ext(inner).
//	    Layer(limit.Layer[string, string](limit.NewSemaphore(8))).
//	    Layer(ratelimit.Layer[string, string](rate.Limit(100), 10)).
//	    Box()
package layer
