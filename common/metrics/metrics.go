package metrics

import (
	"net/http"

	"github.com/arl/statsviz"
)

// Serve 启动 statsviz 监控，访问 /debug/statsviz/
func Serve(addr string) error {
	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		return err
	}
	return http.ListenAndServe(addr, mux)
}
