package main

type config struct {
	API              apiConfig              `yaml:"api"`
	ServiceDiscovery serviceDiscoveryConfig `yaml:"serviceDiscovery"`
	Jaeger           jaegerConfig           `yaml:"jaeger"`
	Catalog          catalogConfig          `yaml:"catalog"`
}

type apiConfig struct {
	Port int `yaml:"port"`
}

type serviceDiscoveryConfig struct {
	Consul consulConfig `yaml:"consul"`
}

type consulConfig struct {
	Address string `yaml:"address"`
}

type jaegerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type catalogConfig struct {
	UpstreamURL string `yaml:"upstreamUrl"`
}
