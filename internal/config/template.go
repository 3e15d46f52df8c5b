package config

// Template is written by `swatch init`.
const Template = `# Swatch Configuration File
# Values shown are the defaults. Environment overrides use the SWATCH_ prefix,
# e.g. SWATCH_THEME_DEFAULT=ocean.

theme:
  # Theme used until one is chosen with "swatch theme set".
  default: default
  # light, dark or system.
  mode: system
  # Extra directories holding .yaml/.toml palettes.
  dirs: []

storage:
  # SQLite file for the persisted theme and mode. Set to "" to keep them
  # in memory. Default: $XDG_DATA_HOME/swatch/swatch.db
  # path: ~/.local/share/swatch/swatch.db

style:
  # Stylesheet rewritten with the active custom properties on every change.
  output: ""
  selector: ":root"

system:
  # File containing "dark" or "light"; watched for system scheme changes.
  scheme_file: ""

logging:
  level: info
  format: console

daemon:
  host: 127.0.0.1
  port: 50151
  rate_limit:
    enabled: true
    requests_per_second: 50
    burst: 100
`
