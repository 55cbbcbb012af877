package serviceInfo

import "fmt"

type ServiceInfo string

var (
	SERVICE_NAME        ServiceInfo = "Bento Mutations Service"
	SERVICE_WELCOME     ServiceInfo = "Welcome to the Mutations table API!"
	SERVICE_DESCRIPTION ServiceInfo = "Mutation table service grouping mutation calls into configurable table rows."

	SERVICE_ARTIFACT    ServiceInfo = "mutations"
	SERVICE_VERSION     ServiceInfo = "0.1.0"
	SERVICE_TYPE_NO_VER ServiceInfo = ServiceInfo(fmt.Sprintf("ca.c3g.bento:%s", SERVICE_ARTIFACT))
	SERVICE_ID          ServiceInfo = SERVICE_TYPE_NO_VER
	SERVICE_TYPE        ServiceInfo = ServiceInfo(fmt.Sprintf("%s:%s", SERVICE_TYPE_NO_VER, SERVICE_VERSION))
)
