/*
Package config provides configuration loading and validation for Stratus
Federation.

Configuration is read from a YAML file, defaulted, optionally overridden by
STRATUS_* environment variables, and validated:

	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
	if err != nil {
		return err
	}

The federation section doubles as the local static configuration tier of
policy resolution: when the state store has no policy configuration for a
queue or for the default queue key, the resolver synthesizes one from
federation.policy_manager and federation.policy_manager_params, falling back
to built-in defaults when those are unset.
*/
package config
