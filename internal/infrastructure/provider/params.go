package provider

import "net/url"

// searchParams collects vendor query parameters; empty values are dropped so
// optional keyword fields never reach the wire.
type searchParams map[string]string

func (p searchParams) values() url.Values {
	v := url.Values{}
	for key, value := range p {
		if value != "" {
			v.Set(key, value)
		}
	}
	return v
}
