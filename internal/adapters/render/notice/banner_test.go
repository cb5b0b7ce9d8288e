package notice

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bnema/smux/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBannerRendersProviderAndAccount(t *testing.T) {
	t.Parallel()

	provider := domain.Provider{ID: "anthropic", Name: "Anthropic", Kind: domain.ProviderKindOfficial, Endpoint: "https://api.anthropic.com"}
	account := domain.Account{ID: "work", DisplayName: "Work", Activation: domain.Activated}

	out := string(NewBanner(io.Discard).Render(domain.NewNotice(provider, &account, time.Now())))

	assert.Contains(t, out, "[smux] provider: Anthropic [Official] account: Work")
	assert.Contains(t, out, "[smux] endpoint: https://api.anthropic.com")
	assert.NotContains(t, out, "not activated")
	assert.True(t, strings.HasSuffix(out, "\r\n"))
	assert.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\n")
}

func TestBannerWarnsForThirdPartyNotActivated(t *testing.T) {
	t.Parallel()

	provider := domain.Provider{ID: "relay", Name: "Relay", Kind: domain.ProviderKindThirdParty}
	account := domain.Account{ID: "trial", DisplayName: "Trial", Activation: domain.NotActivated}

	out := string(NewBanner(io.Discard).Render(domain.NewNotice(provider, &account, time.Now())))

	assert.Contains(t, out, "[Third-party]")
	assert.Contains(t, out, "account Trial of Relay is not activated")
	assert.NotContains(t, out, "endpoint:")
}

func TestBannerWithoutAccount(t *testing.T) {
	t.Parallel()

	provider := domain.Provider{ID: "relay", Name: "Relay", Kind: domain.ProviderKindThirdParty}

	out := string(NewBanner(io.Discard).Render(domain.NewNotice(provider, nil, time.Now())))

	assert.Contains(t, out, "[smux] provider: Relay [Third-party]")
	assert.NotContains(t, out, "account:")
}
