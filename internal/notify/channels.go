package notify

import (
	"fmt"

	"github.com/hikstore/order-intake/internal/aws"
	"github.com/hikstore/order-intake/internal/config"
)

// FromConfig builds the channel set named in cfg.Channels. Both binaries use
// it so the API and the retry worker always agree on channel names.
func FromConfig(cfg config.Config, ses aws.SESAPI) ([]Channel, error) {
	channels := make([]Channel, 0, len(cfg.Channels))
	for _, name := range cfg.Channels {
		switch name {
		case ChannelAdminEmail:
			channels = append(channels, NewAdminEmail(ses, cfg.SenderEmail, cfg.AdminEmail))
		case ChannelCustomerEmail:
			channels = append(channels, NewCustomerEmail(ses, cfg.SenderEmail))
		case ChannelRelayForm:
			channels = append(channels, NewRelayForm(cfg.RelayEndpoint, cfg.RelayKey, cfg.RelayTo))
		case ChannelWebhook:
			channels = append(channels, NewWebhook(cfg.WebhookURL))
		default:
			return nil, fmt.Errorf("unknown notification channel %q", name)
		}
	}
	return channels, nil
}
