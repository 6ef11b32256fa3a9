package cluster

import (
	"fmt"
	"log"
	"os"

	consul "github.com/hashicorp/consul/api"
)

// Registration descreve como o servidor se anuncia no Consul.
type Registration struct {
	ServiceName string
	ServicePort int
	HealthPort  int
	ConsulAddr  string
}

// Register anuncia o serviço no agente Consul com um health check HTTP.
// O ID inclui o hostname do contêiner para que réplicas não colidam.
// O agente desregistra sozinho instâncias críticas por mais de 1 minuto.
func Register(reg Registration) error {
	config := consul.DefaultConfig()
	if reg.ConsulAddr != "" {
		config.Address = reg.ConsulAddr
	}

	client, err := consul.NewClient(config)
	if err != nil {
		return fmt.Errorf("creating consul client: %w", err)
	}

	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	serviceID := fmt.Sprintf("%s-%s", reg.ServiceName, hostname)

	registration := &consul.AgentServiceRegistration{
		ID:   serviceID,
		Name: reg.ServiceName,
		Port: reg.ServicePort,
		// Sem Address: o agente usa o IP de quem registra, e o hostname
		// do contêiner resolve por DNS dentro da rede do compose.
		Check: &consul.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", hostname, reg.HealthPort),
			Timeout:                        "5s",
			Interval:                       "10s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("registering service in consul: %w", err)
	}

	log.Printf("[Cluster] service %q registered in Consul with id %s", reg.ServiceName, serviceID)
	return nil
}
