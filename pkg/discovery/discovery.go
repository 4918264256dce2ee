// Package discovery announces the running service in etcd.
package discovery

import (
	"context"
	"fmt"

	"github.com/example/market/pkg/config"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/zap"
)

type ServiceDiscovery struct {
	client  *clientv3.Client
	config  *config.EtcdConfig
	logger  *zap.Logger
	leaseID clientv3.LeaseID
}

type ServiceInstance struct {
	Name string
	Host string
	Port int
	// URL is the public base URL clients should use, if different from host:port.
	URL string
}

// Key is the etcd key the instance is registered under.
func (i *ServiceInstance) Key(prefix string) string {
	return fmt.Sprintf("%s%s/%s:%d", prefix, i.Name, i.Host, i.Port)
}

// Value is the address stored for the instance.
func (i *ServiceInstance) Value() string {
	if i.URL != "" {
		return i.URL
	}
	return fmt.Sprintf("%s:%d", i.Host, i.Port)
}

func NewServiceDiscovery(cfg *config.EtcdConfig, logger *zap.Logger) (*ServiceDiscovery, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}

	return &ServiceDiscovery{
		client: cli,
		config: cfg,
		logger: logger.Named("discovery"),
	}, nil
}

// Register puts the instance under a lease and keeps the lease alive until
// ctx is cancelled or Deregister is called.
func (sd *ServiceDiscovery) Register(ctx context.Context, instance *ServiceInstance) error {
	lease, err := sd.client.Grant(ctx, sd.config.LeaseTTL)
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}

	_, err = sd.client.Put(ctx, instance.Key(sd.config.Prefix), instance.Value(), clientv3.WithLease(lease.ID))
	if err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	ch, err := sd.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return fmt.Errorf("failed to keep alive: %w", err)
	}
	sd.leaseID = lease.ID

	go func() {
		for range ch {
		}
		sd.logger.Info("Lease keep-alive stopped", zap.String("service", instance.Name))
	}()

	return nil
}

func (sd *ServiceDiscovery) Deregister(ctx context.Context, instance *ServiceInstance) error {
	if _, err := sd.client.Delete(ctx, instance.Key(sd.config.Prefix)); err != nil {
		return fmt.Errorf("failed to deregister service: %w", err)
	}
	if sd.leaseID != 0 {
		if _, err := sd.client.Revoke(ctx, sd.leaseID); err != nil {
			return fmt.Errorf("failed to revoke lease: %w", err)
		}
		sd.leaseID = 0
	}
	return nil
}

func (sd *ServiceDiscovery) Close() error {
	return sd.client.Close()
}
