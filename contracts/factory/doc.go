/*
Package factory implements the Omnitoken Factory contract.

The factory provisions bridged token contracts, their optional asset-custody
lockboxes and per-bridge minting limits in a single transaction. All deployed
addresses are derived deterministically from caller-supplied identity
material and the sender of the deploying transaction, never from chain
state: the management native anchors contract hashes on the transaction
sender even when the deploy call comes from a contract. Chains where the
deployments are sent from the same account through factories carrying the
same embedded artifacts yield identical token and lockbox addresses with no
cross-chain coordination. Keeping the deployer account and artifacts
identical across chains is a precondition for integrators, it is not
enforced by the contract.

The factory is deployed with the compiled token and lockbox artifacts (NEF
plus a manifest template whose name field holds a placeholder) and stores
them once, immutably. Each deployment substitutes a per-deployment name
derived from the deployment salt into the template; since the platform
includes the manifest name in contract address derivation, this makes the
resulting address a pure function of the deployment parameters.

All four deployment workflows are atomic: any failure, including a
deployment collision on a reused salt, faults the transaction and leaves no
observable effect.

# Contract notifications

TokenDeployed notification. Produced after a token contract is created,
provisioned and, in composite workflows, before its lockbox is created.

	TokenDeployed:
	  - name: token
	    type: Hash160

LockboxDeployed notification. Produced after a lockbox contract is created.

	LockboxDeployed:
	  - name: lockbox
	    type: Hash160
*/
package factory
