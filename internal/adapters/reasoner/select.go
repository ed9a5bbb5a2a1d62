package reasoner

import (
	"strings"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/ports"
	"github.com/0xcro3dile/claimcheck-go/internal/infrastructure/logging"
)

// placeholderKeys are credentials shipped in sample configs that never authenticate.
var placeholderKeys = map[string]bool{
	"your_perplexity_api_key_here": true,
	"test_api_key":                 true,
}

// UsableKey reports whether key is worth sending to the chat API.
func UsableKey(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && !placeholderKeys[key]
}

// New returns a ChatReasoner when cfg carries a usable key and a RuleReasoner otherwise.
func New(cfg ChatConfig, logger logging.Logger) ports.ClaimReasoner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if !UsableKey(cfg.APIKey) {
		logger.Info("no usable reasoner credential, using rule-based fallback")
		return NewRuleReasoner()
	}
	return NewChatReasoner(cfg, logger)
}
