package llm

// ProviderFactory 定義建立 ModelProvider 的工廠介面
type ProviderFactory interface {
	// Create builds a provider instance for one model identifier.
	Create(model string, settings Settings) (ModelProvider, error)
}

// 全域 Provider 註冊表
var providerRegistry = make(map[string]ProviderFactory)

// RegisterProvider 註冊一個 Provider Factory
func RegisterProvider(kind string, factory ProviderFactory) {
	providerRegistry[kind] = factory
}

// GetProviderFactory 取得指定名稱的 Provider Factory
func GetProviderFactory(kind string) (ProviderFactory, bool) {
	f, ok := providerRegistry[kind]
	return f, ok
}
