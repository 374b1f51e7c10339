package cfgflags

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bindFlags binds each named flag in f to the same viper key.
func bindFlags(v *viper.Viper, f *pflag.FlagSet, keys ...string) error {
	for _, key := range keys {
		flag := f.Lookup(key)
		if flag == nil {
			return fmt.Errorf("dev error: flag %q is not registered", key)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("could not bind flag %q: %w", key, err)
		}
	}
	return nil
}
