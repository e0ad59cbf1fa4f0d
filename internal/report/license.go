package report

import (
	"fmt"
	"os"

	"github.com/unidoc/unioffice/common/license"
)

// InitLicense registers the unioffice license key. Document serialization
// fails without a registered key, so callers run this at startup and abort
// with a clear error instead of failing deep in the pipeline. An empty key
// falls back to the UNIDOC_LICENSE_API_KEY environment variable.
func InitLicense(key string) error {
	if key == "" {
		key = os.Getenv("UNIDOC_LICENSE_API_KEY")
	}
	if key == "" {
		return fmt.Errorf("unioffice license key is not configured; set license.unidoc_key or UNIDOC_LICENSE_API_KEY")
	}
	if err := license.SetMeteredKey(key); err != nil {
		return fmt.Errorf("failed to register unioffice license key: %w", err)
	}
	return nil
}
