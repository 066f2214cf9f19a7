// Package config binds the engine/oracle/bias parameters the CLI needs
// beyond the handful exposed as flags directly (SPEC_FULL.md §A2): oracle
// selection and its tuning knobs, the fuzzing bias, and the numeric
// dominance relation source.
//
// Grounded on the viper.New/SetConfigFile/SetConfigType/AddConfigPath/
// ReadInConfig/Unmarshal sequence in
// _examples/niceyeti-tabular/tabular/reinforcement/learning.go's
// FromYaml, the only config-from-YAML-via-viper example in the pack.
package config
