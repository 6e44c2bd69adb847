package webclient

import "github.com/KennethLeeJE8/datadam-sub000/internal/interfaces"

func init() {
	RegisterBackend(ClientNetHTTP, func(cfg Config, logger interfaces.Logger) (WebClient, error) {
		return NewNetHTTPClient(cfg, logger, nil)
	})
	RegisterBackend(ClientChromeDP, func(cfg Config, logger interfaces.Logger) (WebClient, error) {
		return NewChromeDPClient(cfg, logger)
	})
}
